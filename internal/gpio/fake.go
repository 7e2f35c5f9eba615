package gpio

import (
	"errors"

	"github.com/sweeney/vintage-radio/internal/logic"
)

// FakeReader is a test double that returns scripted control samples.
type FakeReader struct {
	// Samples contains scripted control values to return.
	// Each call to Read() consumes the next sample.
	Samples []logic.Controls

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []logic.Controls) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (logic.Controls, error) {
	if f.ReadError != nil {
		return logic.Controls{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return logic.Controls{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// Write is a single recorded output change.
type Write struct {
	Output Output
	On     bool
}

// FakeWriter records output changes for test assertions.
type FakeWriter struct {
	// Writes contains every Write call in order.
	Writes []Write

	// Blinks contains the outputs passed to Blink, in order.
	Blinks []Output

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool

	levels map[Output]bool
}

// NewFakeWriter creates a FakeWriter with every output off.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{levels: make(map[Output]bool)}
}

// Write records the change.
func (f *FakeWriter) Write(out Output, on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if f.levels == nil {
		f.levels = make(map[Output]bool)
	}
	f.Writes = append(f.Writes, Write{Output: out, On: on})
	f.levels[out] = on
	return nil
}

// Blink records the call and returns once done is closed.
// A nil done returns immediately so tests never hang.
func (f *FakeWriter) Blink(out Output, done <-chan struct{}) error {
	f.Blinks = append(f.Blinks, out)
	if done != nil {
		<-done
	}
	if f.levels == nil {
		f.levels = make(map[Output]bool)
	}
	f.levels[out] = false
	return nil
}

// Level returns the last value written to an output.
func (f *FakeWriter) Level(out Output) bool {
	return f.levels[out]
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded writes and blinks, keeping output levels.
func (f *FakeWriter) Reset() {
	f.Writes = nil
	f.Blinks = nil
	f.WriteError = nil
	f.Closed = false
}
