// Package score reduces a set of findings to a 0..100 score and a letter
// grade using fixed per-severity deductions.
package score
