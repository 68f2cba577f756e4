// Package script runs small image pipelines written one command per line.
//
//	load "photo.jpg"
//	thumbnail 200 200 "top left"
//	text "Hello" size 24 color "#fff" "#f00" stroke "#000" width 2 position "bottom right" offset -10 -10
//	overlay "logo.png" position "top right" opacity 0.5
//	blur gaussian 2
//	save "out.jpg" quality 90
//
// Strings are double-quoted, numbers may be negative or fractional and '#'
// starts a comment. A command takes its positional arguments first, then
// keyword options; a keyword collects every value up to the next keyword.
// Scripts are parsed with participle and run through an imaging.Chain, so
// the first failing statement stops the run and is reported with its line.
//
// The run subcommand of cmd/simpleimage and the image_process tool both
// execute scripts through Runner.
package script
