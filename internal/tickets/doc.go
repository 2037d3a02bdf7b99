// Package tickets turns flat request rows into ticket aggregates, reconciles
// ticket status with row status, and filters aggregates for display.
//
// Everything here is pure except FanOut, which drives a RowWriter.
package tickets
