package window

// Window keeps the most recent observations in insertion order.
type Window struct {
	values []float64
	size   int
	index  int
	filled bool
}

func New(size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{
		values: make([]float64, size),
		size:   size,
	}
}

func (w *Window) Add(value float64) {
	w.values[w.index] = value
	w.index = (w.index + 1) % w.size
	if w.index == 0 {
		w.filled = true
	}
}

func (w *Window) Size() int {
	return w.size
}

func (w *Window) Len() int {
	if w.filled {
		return w.size
	}
	return w.index
}

func (w *Window) Full() bool {
	return w.filled
}

// Values returns a copy of the window, oldest first.
func (w *Window) Values() []float64 {
	length := w.Len()
	result := make([]float64, 0, length)
	if length == 0 {
		return result
	}
	if w.filled {
		result = append(result, w.values[w.index:]...)
	}
	result = append(result, w.values[:w.index]...)
	return result
}

// Last returns the newest value, or false when the window is empty.
func (w *Window) Last() (float64, bool) {
	if w.Len() == 0 {
		return 0, false
	}
	i := w.index - 1
	if i < 0 {
		i = w.size - 1
	}
	return w.values[i], true
}
