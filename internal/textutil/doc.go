// Package textutil sanitizes user- and service-provided names for safe use
// as file names.
package textutil
