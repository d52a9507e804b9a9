package buffer

type ListNode struct {
	Key  int
	next *ListNode
	prev *ListNode
}

func NewListNode(key int, next, prev *ListNode) *ListNode {
	return &ListNode{Key: key, next: next, prev: prev}
}

type DoubleLinkedList struct {
	head *ListNode // sentinel, next-nya most recently used
	tail *ListNode // sentinel, prev-nya least recently used
	size int
}

// null <--> head <-> tail <-> null
//
//	-> next
//	<- prev
func NewDoubleLinkedList() *DoubleLinkedList {
	head := NewListNode(-1, nil, nil)
	tail := NewListNode(-1, nil, nil)
	head.next = tail
	tail.prev = head

	return &DoubleLinkedList{head: head, tail: tail}
}

func (d *DoubleLinkedList) Remove(node *ListNode) {

	node.prev.next = node.next
	node.next.prev = node.prev
	node.next = nil
	node.prev = nil
	d.size--
}

// PushFront. push ke nextnya head. node paling front adalah node most recently used
func (d *DoubleLinkedList) PushFront(val int) *ListNode {
	newNode := NewListNode(val, nil, nil)
	d.insertFront(newNode)
	return newNode
}

// MoveToFront. pindahkan node yang sudah ada di list ke depan.
func (d *DoubleLinkedList) MoveToFront(node *ListNode) {
	if d.head.next == node {
		return
	}
	d.Remove(node)
	d.insertFront(node)
}

func (d *DoubleLinkedList) insertFront(node *ListNode) {
	node.next = d.head.next
	node.prev = d.head
	d.head.next.prev = node
	d.head.next = node
	d.size++
}

// PushBack. push ke prevnya tail, jadi least recently used.
func (d *DoubleLinkedList) PushBack(val int) *ListNode {
	node := NewListNode(val, d.tail, d.tail.prev)
	d.tail.prev.next = node
	d.tail.prev = node
	d.size++
	return node
}

// GetBack. return node prevnya tail. node ini adalah node least recently used. nil kalau list kosong.
func (d *DoubleLinkedList) GetBack() *ListNode {
	if d.size == 0 {
		return nil
	}
	return d.tail.prev
}

// Size. return jumlah node dalam list
func (d *DoubleLinkedList) Size() int {
	return d.size
}

// Keys. return key dari most recently used ke least recently used.
func (d *DoubleLinkedList) Keys() []int {
	keys := make([]int, 0, d.size)
	for curr := d.head.next; curr != d.tail; curr = curr.next {
		keys = append(keys, curr.Key)
	}
	return keys
}

// LRUReplacer . urutan recency frame ID. setiap frame yang terisi punya tepat satu posisi di list.
type LRUReplacer struct {
	capacity int
	lst      *DoubleLinkedList
	index    map[int]*ListNode
}

func NewLRUReplacer(capacity int) *LRUReplacer {
	return &LRUReplacer{
		capacity: capacity,
		lst:      NewDoubleLinkedList(),
		index:    make(map[int]*ListNode, capacity),
	}
}

// Touch. tandai frame sebagai most recently used. frame baru dimasukkan ke depan list.
func (lru *LRUReplacer) Touch(frameID int) {
	if elem, ok := lru.index[frameID]; ok {
		lru.lst.MoveToFront(elem)
		return
	}

	elem := lru.lst.PushFront(frameID) // most recently used
	lru.index[frameID] = elem
}

// Size. return jumlah frame dalam LRU
func (lru *LRUReplacer) Size() int {
	return len(lru.index)
}

// Victim. return frameID yang akan di evict dari LRU (yang least recently used di prevnya tail..)
func (lru *LRUReplacer) Victim(frameID *int) bool {
	backElem := lru.lst.GetBack() // least recently used
	if backElem == nil {
		return false
	}

	val := backElem.Key
	lru.lst.Remove(backElem) // remove dari list
	delete(lru.index, val)   // remove dari index

	*frameID = val // set frameID ke least recently used
	return true
}

// Restore. kembalikan frame yang tadi di-Victim ke posisi least recently used.
func (lru *LRUReplacer) Restore(frameID int) {
	if _, ok := lru.index[frameID]; ok {
		return
	}
	lru.index[frameID] = lru.lst.PushBack(frameID)
}

// Remove. remove frame dari LRU
func (lru *LRUReplacer) Remove(frameID int) {
	if elem, ok := lru.index[frameID]; ok {
		lru.lst.Remove(elem)
		delete(lru.index, frameID)
	}
}

// Order. frame ID dari most recently used ke least recently used.
func (lru *LRUReplacer) Order() []int {
	return lru.lst.Keys()
}
