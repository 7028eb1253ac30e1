// Package dataprocessing turns raw multi-account analytics workbooks into
// clean, gap-filled per-entity time series and derived scalar statistics.
//
// The pipeline is a one-way, side-effect-free transformation:
//
//	ParseSheet -> NormalizeAccount -> Aggregate -> FilterByTimeRange
//	                                       \-> ShouldUseLogScale, MovingAverage
//
// Sheets are row-major snapshot tables: row 0 holds scrape timestamps
// starting at column 1, column 0 holds metric row names. Scalar metrics use
// bare row names (followers, total_likes); per-post metrics use
// <prefix>_<id>_<attribute> row names whose grammar differs per platform.
//
// Everything here is pure computation over in-memory grids. Failures degrade
// to fewer points or zeroed fields, never to an aborted account.
package dataprocessing
