// Package host supplies module sources and caches built modules. It owns
// the file set, the symbol table and the ID allocator shared by every
// module of one compilation.
package host
