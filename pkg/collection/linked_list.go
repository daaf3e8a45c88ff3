// Package collection provides the ordered sibling container used for a
// node's children. Links live on the elements themselves, so an element
// can belong to at most one list at a time.
package collection

import "math"

// Linkable is implemented by list elements. Length is the element's span
// in the flat offset space the list indexes.
type Linkable[T any] interface {
	comparable
	Prev() T
	Next() T
	SetPrev(T)
	SetNext(T)
	Length() int
}

// LinkedList is an intrusive doubly linked list. The zero value is empty.
type LinkedList[T Linkable[T]] struct {
	head, tail T
	length     int
}

func New[T Linkable[T]]() *LinkedList[T] {
	return &LinkedList[T]{}
}

func (l *LinkedList[T]) Head() T { return l.head }
func (l *LinkedList[T]) Tail() T { return l.tail }

// Len returns the number of elements.
func (l *LinkedList[T]) Len() int { return l.length }

// Append adds nodes at the end in order.
func (l *LinkedList[T]) Append(nodes ...T) {
	var zero T
	for _, n := range nodes {
		l.InsertBefore(n, zero)
	}
}

func (l *LinkedList[T]) Contains(node T) bool {
	var zero T
	for cur := l.head; cur != zero; cur = cur.Next() {
		if cur == node {
			return true
		}
	}
	return false
}

// InsertBefore links node ahead of ref, or at the end when ref is zero.
// node must not already be linked into a list.
func (l *LinkedList[T]) InsertBefore(node, ref T) {
	var zero T
	if node == zero {
		return
	}
	node.SetNext(ref)
	switch {
	case ref != zero:
		prev := ref.Prev()
		node.SetPrev(prev)
		if prev != zero {
			prev.SetNext(node)
		}
		ref.SetPrev(node)
		if ref == l.head {
			l.head = node
		}
	case l.tail != zero:
		l.tail.SetNext(node)
		node.SetPrev(l.tail)
		l.tail = node
	default:
		node.SetPrev(zero)
		l.head = node
		l.tail = node
	}
	l.length++
}

// Offset returns the summed length of the elements before target, or -1
// when target is not in the list.
func (l *LinkedList[T]) Offset(target T) int {
	var zero T
	index := 0
	for cur := l.head; cur != zero; cur = cur.Next() {
		if cur == target {
			return index
		}
		index += cur.Length()
	}
	return -1
}

// Remove unlinks node if it belongs to the list.
func (l *LinkedList[T]) Remove(node T) {
	if !l.Contains(node) {
		return
	}
	var zero T
	prev, next := node.Prev(), node.Next()
	if prev != zero {
		prev.SetNext(next)
	}
	if next != zero {
		next.SetPrev(prev)
	}
	if node == l.head {
		l.head = next
	}
	if node == l.tail {
		l.tail = prev
	}
	node.SetPrev(zero)
	node.SetNext(zero)
	l.length--
}

// Find returns the element covering index and the offset inside it. With
// inclusive, an index equal to an element's end selects that element
// unless a following element is empty. The zero element is returned when
// index is past the end.
func (l *LinkedList[T]) Find(index int, inclusive bool) (T, int) {
	var zero T
	for cur := l.head; cur != zero; cur = cur.Next() {
		length := cur.Length()
		if index < length ||
			(inclusive && index == length && (cur.Next() == zero || cur.Next().Length() != 0)) {
			return cur, index
		}
		index -= length
	}
	return zero, 0
}

// ForEach calls fn for every element. The successor is read before fn
// runs, so fn may unlink or move the element it receives.
func (l *LinkedList[T]) ForEach(fn func(T)) {
	var zero T
	for cur := l.head; cur != zero; {
		next := cur.Next()
		fn(cur)
		cur = next
	}
}

// ForEachAt calls fn for each element overlapping [index, index+length)
// with the element-local offset and the overlapping length. As with
// ForEach, the successor is captured before fn runs. An empty range
// visits nothing, not even the element covering index.
func (l *LinkedList[T]) ForEachAt(index, length int, fn func(node T, offset, length int)) {
	if length <= 0 {
		return
	}
	var zero T
	end := index + length
	if end < index {
		end = math.MaxInt // a length of MaxInt means "to the end"
	}
	start, offset := l.Find(index, false)
	curIndex := index - offset
	for cur := start; cur != zero && curIndex < end; {
		next := cur.Next()
		curLength := cur.Length()
		if index > curIndex {
			fn(cur, index-curIndex, min(length, curIndex+curLength-index))
		} else {
			fn(cur, 0, min(curLength, end-curIndex))
		}
		curIndex += curLength
		cur = next
	}
}

// Slice returns the elements in order.
func (l *LinkedList[T]) Slice() []T {
	out := make([]T, 0, l.length)
	l.ForEach(func(n T) { out = append(out, n) })
	return out
}

// Reduce folds the elements in order.
func Reduce[T Linkable[T], A any](l *LinkedList[T], memo A, fn func(A, T) A) A {
	l.ForEach(func(n T) { memo = fn(memo, n) })
	return memo
}

// Map applies fn to each element in order.
func Map[T Linkable[T], R any](l *LinkedList[T], fn func(T) R) []R {
	out := make([]R, 0, l.length)
	l.ForEach(func(n T) { out = append(out, fn(n)) })
	return out
}
