package model

import "errors"

var (
	// ErrParse marks a year or file name that did not match its pattern
	ErrParse = errors.New("parse error")

	// ErrDivisionByZero marks a productivity ratio with a zero denominator
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidArgument marks a parameter outside its valid range
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSchema marks an input table missing a required column
	ErrSchema = errors.New("schema error")
)
