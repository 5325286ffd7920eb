package config

// SetLogger sets the logger fields for testing
func (l *Logger) SetLogger(level, format, output string) {
	l.level = level
	l.format = format
	l.output = output
}

// SetPath sets the feeds file path for testing
func (f *Feeds) SetPath(path string) {
	f.path = path
}

// SetPath sets the tuning file path for testing
func (t *Tuning) SetPath(path string) {
	t.path = path
}
