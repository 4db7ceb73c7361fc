package transport

import "bytes"

// DefaultMaxLineBytes bounds how much of an unterminated line is buffered.
const DefaultMaxLineBytes = 64 << 10

// LineBuffer reassembles newline-terminated lines from arbitrary chunks.
type LineBuffer struct {
	partial    []byte
	maxLine    int
	discarding bool
	overflows  int
}

func NewLineBuffer(maxLine int) *LineBuffer {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	return &LineBuffer{maxLine: maxLine}
}

// Feed appends chunk and calls emit for each complete, non-empty line
// without its terminator. Lines longer than the limit are dropped. When emit returns false the rest of the chunk is
// dropped and Feed returns false.
func (buffer *LineBuffer) Feed(chunk []byte, emit func(line string) bool) bool {
	for len(chunk) > 0 {
		index := bytes.IndexByte(chunk, '\n')
		if index < 0 {
			buffer.appendPartial(chunk)
			return true
		}

		segment := chunk[:index]
		chunk = chunk[index+1:]

		if buffer.discarding {
			buffer.discarding = false
			continue
		}

		var line string
		if len(buffer.partial) > 0 {
			if len(buffer.partial)+len(segment) > buffer.maxLine {
				buffer.partial = buffer.partial[:0]
				buffer.overflows++
				continue
			}
			buffer.partial = append(buffer.partial, segment...)
			line = string(buffer.partial)
			buffer.partial = buffer.partial[:0]
		} else {
			if len(segment) > buffer.maxLine {
				buffer.overflows++
				continue
			}
			line = string(segment)
		}

		if line == "" {
			continue
		}
		if !emit(line) {
			return false
		}
	}
	return true
}

// Pending returns the size of the buffered unterminated line.
func (buffer *LineBuffer) Pending() int {
	return len(buffer.partial)
}

// Overflows returns how many oversized lines were dropped.
func (buffer *LineBuffer) Overflows() int {
	return buffer.overflows
}

func (buffer *LineBuffer) appendPartial(chunk []byte) {
	if buffer.discarding {
		return
	}
	if len(buffer.partial)+len(chunk) > buffer.maxLine {
		buffer.partial = buffer.partial[:0]
		buffer.discarding = true
		buffer.overflows++
		return
	}
	buffer.partial = append(buffer.partial, chunk...)
}
