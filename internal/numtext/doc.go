// Package numtext renders bytes as zero-padded three-digit decimal groups and
// parses them back.
//
// The text form is meant for channels that only carry spoken or typed digits:
//
//	072 101 108 108 111 032 119 111 114 108 100
//	255 000 017
//
// Groups are separated by a single space and wrapped after a fixed number of
// groups per line. The wrap width is cosmetic; Decode accepts any whitespace.
package numtext
