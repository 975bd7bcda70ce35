// Package tree wraps decoded eero API responses in a nil-safe Node type.
//
// The API returns nested objects in which any key may be absent or null.
// Node.Get walks a key path without failing, and the scalar accessors
// (String, Float, Bool, Text) report through their second result whether the
// value had the expected shape. Callers decide what absence means; tree
// never substitutes defaults.
package tree
