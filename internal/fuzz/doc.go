// Package fuzztests houses Go fuzz harnesses for the analysis front end
// (source -> lexer -> parser -> rules). They guard against panics, hangs
// and broken structural invariants on arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер, парсер и движок
// правил и проверять инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
