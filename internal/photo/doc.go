// Package photo validates the founder photo shown on the about page.
//
// Uploads arrive as raw image bytes or as a data URI and are stored as a
// data URI. Before storing, the EXIF block is read with go-exif and tags
// that disclose the author (GPS position, serial numbers, names, devices,
// software, timestamps) are reported. Photos with GPS coordinates are
// refused unless rejection is turned off.
package photo
