// Package resume loads resume data and growth plans and derives the fields
// templates and trackers rely on.
package resume
