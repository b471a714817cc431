package rlog

// window is a ring buffer with the last two lines whose meaning is still undecided.
// A divider line only becomes a divider once the lines after it are known.
type window struct {
	lines [2]string
	start int
	size  int
}

func (w *window) push(line string) {
	if w.size < len(w.lines) {
		w.lines[(w.start+w.size)%len(w.lines)] = line
		w.size++
		return
	}

	w.lines[w.start] = line
	w.start = (w.start + 1) % len(w.lines)
}

func (w *window) len() int {
	return w.size
}

// at returns the i-th buffered line, oldest first.
func (w *window) at(i int) string {
	if i < 0 || i >= w.size {
		panic("window index out of range")
	}

	return w.lines[(w.start+i)%len(w.lines)]
}

func (w *window) first() string {
	return w.at(0)
}

func (w *window) last() string {
	return w.at(w.size - 1)
}

func (w *window) is(lines ...string) bool {
	if len(lines) != w.size {
		return false
	}

	for i, l := range lines {
		if w.at(i) != l {
			return false
		}
	}

	return true
}

// drain empties the window, returning its lines oldest first.
func (w *window) drain() []string {
	result := make([]string, w.size)
	for i := range result {
		result[i] = w.at(i)
	}

	w.reset()
	return result
}

func (w *window) reset() {
	w.start = 0
	w.size = 0
}
