// Package handler implements the HTTP surface of the grade service: the
// grading endpoint, CORS headers and JSON error responses.
package handler
