// Package dataset fetches research return datasets from the Ken French
// data library and converts them into returns.Frame values.
//
// Library archives are zipped CSV files holding one or more tables, each
// introduced by a caption line and a header row of column names. Cells
// are percentages with -99.99 marking missing observations; the client
// maps the sentinel to NaN and scales everything else to simple returns
// before handing frames back.
//
// The client is safe for concurrent use. Downloads are rate limited and
// retried on transient failures.
package dataset
