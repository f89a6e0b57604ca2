package ot

// Document is a mutable sequence of code points. Positions are offsets in
// runes, not bytes, so multi-byte UTF-8 text transforms the same way the
// Jupiter algorithm expects a plain "sequence of characters" to.
type Document struct {
	runes []rune
}

// NewDocument creates a document with the given initial content.
func NewDocument(content string) *Document {
	return &Document{runes: []rune(content)}
}

// Len returns the number of code points currently in the document.
func (d *Document) Len() int {
	return len(d.runes)
}

// String returns the document's current content.
func (d *Document) String() string {
	return string(d.runes)
}

// Slice returns the code points in [pos, pos+n) as a string. The caller
// must ensure pos+n <= Len(); Erase enforces this before calling.
func (d *Document) Slice(pos, n int) string {
	return string(d.runes[pos : pos+n])
}

// Insert splices text in at pos. pos must be in [0, Len()].
func (d *Document) Insert(pos int, text string) error {
	if pos < 0 || pos > len(d.runes) {
		return ErrPrecondition
	}

	inserted := []rune(text)
	out := make([]rune, 0, len(d.runes)+len(inserted))
	out = append(out, d.runes[:pos]...)
	out = append(out, inserted...)
	out = append(out, d.runes[pos:]...)
	d.runes = out
	return nil
}

// Erase removes n code points starting at pos. pos+n must be in
// [0, Len()], and the erased text must equal expect (the tombstone stored
// in the delete operation).
func (d *Document) Erase(pos int, expect string) error {
	n := len([]rune(expect))
	if pos < 0 || pos+n > len(d.runes) {
		return ErrPrecondition
	}
	if d.Slice(pos, n) != expect {
		return ErrPrecondition
	}

	out := make([]rune, 0, len(d.runes)-n)
	out = append(out, d.runes[:pos]...)
	out = append(out, d.runes[pos+n:]...)
	d.runes = out
	return nil
}
