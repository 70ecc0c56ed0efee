package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes buffered destinations after each one, so
// listings interleave correctly with output from child processes.
type FlushingWriter struct {
	mutex       sync.Mutex
	destination io.Writer
}

// NewFlushingWriter wraps writer. Wrapping an existing FlushingWriter returns it unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	switch typedWriter := writer.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedWriter
	default:
		return &FlushingWriter{destination: writer}
	}
}

// Write delegates to the destination and flushes it when it supports flushing.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.destination == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	bufferedDestination, isBuffered := flushingWriter.destination.(flusher)
	if !isBuffered {
		return bytesWritten, nil
	}
	return bytesWritten, bufferedDestination.Flush()
}
