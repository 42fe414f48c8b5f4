// Package grading holds the score-to-grade rule and the query parsing that
// feeds it.
//
// Scores map onto grades with fixed, non-overlapping ranges:
//
//   - 80..100: A
//   - 60..79:  B
//   - 40..59:  C
//   - anything else, including negatives and scores above 100: Fail
//
// ParseQuery turns a raw query string into a ScoreRequest. It supports
// key-based lookup (the default) and the legacy positional contract where
// name must be the first parameter and score the second.
package grading
