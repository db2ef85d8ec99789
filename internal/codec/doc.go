// Package codec reads and writes raster buffers as image files.
//
// Targa is the native format: uncompressed and run-length encoded true-color
// files at 24 or 32 bits per pixel are read, and every Targa write is an
// uncompressed 32-bit image. PNG, BMP and TIFF go through the standard
// image.Image interfaces and premultiply on read. The .rgbz snapshot format
// stores the raw buffer bytes compressed with zstd. Targa and snapshot files
// reproduce a buffer byte for byte whatever its alpha.
//
// Load and Save pick the format from the file extension. Cache keeps decoded
// buffers in memory for repeated loads of the same path.
package codec
