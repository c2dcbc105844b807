// Package errors defines error types for the query engine SDK.
//
// This package provides structured error types that wrap the different failure
// scenarios of an engine call: platform detection, input staging, process
// launch, engine-reported failures and output decoding. All error types support
// error unwrapping and can be checked using errors.Is, errors.As, and errors.AsType.
package errors
