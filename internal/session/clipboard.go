package session

// Clipboard holds the source path of the last copy. Pasting reads it
// without clearing it, so one copy can be pasted many times.
type Clipboard struct {
	path string
}

// Set replaces the held path.
func (c *Clipboard) Set(path string) {
	c.path = path
}

// Path returns the held path, if any.
func (c Clipboard) Path() (string, bool) {
	return c.path, c.path != ""
}

// Clear empties the clipboard.
func (c *Clipboard) Clear() {
	c.path = ""
}
