package editor

// itemList is the ordered item collection behind the exam list and checklist
// editors. It never drops below one item.
type itemList[T any] struct {
	items []T
}

func (l *itemList[T]) len() int { return len(l.items) }

func (l *itemList[T]) snapshot() []T {
	return append([]T(nil), l.items...)
}

func (l *itemList[T]) add(item T) int {
	l.items = append(l.items, item)
	return len(l.items) - 1
}

func (l *itemList[T]) canRemove() bool { return len(l.items) > 1 }

func (l *itemList[T]) remove(i int) bool {
	if !l.canRemove() || i < 0 || i >= len(l.items) {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

// moveUp and moveDown swap with the neighbour; at either end they do nothing.
func (l *itemList[T]) moveUp(i int) bool {
	if i <= 0 || i >= len(l.items) {
		return false
	}
	l.items[i-1], l.items[i] = l.items[i], l.items[i-1]
	return true
}

func (l *itemList[T]) moveDown(i int) bool {
	if i < 0 || i >= len(l.items)-1 {
		return false
	}
	l.items[i], l.items[i+1] = l.items[i+1], l.items[i]
	return true
}

func (l *itemList[T]) get(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(l.items) {
		return zero, false
	}
	return l.items[i], true
}

func (l *itemList[T]) set(i int, item T) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items[i] = item
	return true
}
