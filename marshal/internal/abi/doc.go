// Package abi holds the numeric coercion and size limits shared by the
// marshal package.
//
// Coercions accept any Go numeric type a caller might hold (float64 from
// JSON, json.Number, named integer types such as resource handles) and
// succeed only when the value fits the target exactly. Nothing is ever
// truncated or rounded.
//
// This package is internal to marshal.
package abi
