// Package textfile reads and writes grade-books as line-oriented text.
//
// Three files are involved:
//
//	grades_data.txt    Alice, Math, great     one line per individual grade
//	students_data.txt  Alice                  one line per student
//	report.txt         human-readable dump    write-only
//
// Loading is permissive by default: a grades line that does not split into
// exactly three ", "-separated fields, or whose last field is not a grade
// name, is skipped and reported in LoadResult.Skipped. With
// LoadOptions.Strict the first such line fails the whole load instead.
// Every line is parsed before any is applied, so a failed load never leaves
// a half-loaded store behind.
//
// A missing file is reported as ErrFileNotFound and the store is untouched.
package textfile
