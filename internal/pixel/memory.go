package pixel

// Memory is a Sink that records frames for test assertions.
type Memory struct {
	// Frames contains a copy of every written frame.
	Frames [][]Color

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Write records a copy of frame.
func (m *Memory) Write(frame []Color) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	f := make([]Color, len(frame))
	copy(f, frame)
	m.Frames = append(m.Frames, f)
	return nil
}

// Last returns the most recent frame, or nil.
func (m *Memory) Last() []Color {
	if len(m.Frames) == 0 {
		return nil
	}
	return m.Frames[len(m.Frames)-1]
}

// Close marks the sink as closed.
func (m *Memory) Close() error {
	m.Closed = true
	return nil
}
