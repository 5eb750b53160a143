// Package fuzztests houses Go fuzz harnesses for the lazy front end
// (source -> lexer -> parser). They guard against panics, hangs and
// allocator explosions on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet, лексер и парсер.
//
// Не делает: генерацию корпусов, запись файлов, загрузку модулей.
package fuzztests
