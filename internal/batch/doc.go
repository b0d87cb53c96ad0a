// Package batch drives a transcription run over a folder of audio files:
// load the model once, discover inputs, then transcribe and persist each one
// in sorted order. A failure on one file is reported and the run moves on to
// the next.
package batch
