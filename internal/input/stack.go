// Copyright 2017-2018 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package input

import "fmt"

// Stack is the LIFO chain of input frames the lexer reads from: the primary
// document, pushed DTD external subset, and pushed/popped entity frames. It
// forms an owning linear chain; Pop is the only way to release a frame, so
// cycles are impossible by construction.
type Stack struct {
	frames []*Frame
}

// Push makes f the new top of the stack.
func (s *Stack) Push(f *Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes, closes and returns the current top frame. It panics if the
// stack is empty; callers must not pop past the primary document frame.
func (s *Stack) Pop() *Frame {
	n := len(s.frames)
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	f.Close()
	return f
}

// Current returns the top frame, or nil if the stack is empty.
func (s *Stack) Current() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Len reports the number of frames on the stack.
func (s *Stack) Len() int { return len(s.frames) }

// CheckRecursion walks the stack from top to bottom looking for an existing
// frame named name (an "&entity;" or "%entity;" synthetic name, or a
// resolved system path). It is called before pushing a new frame for the
// same entity/external subset.
func (s *Stack) CheckRecursion(name string) error {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Name == name {
			return fmt.Errorf("entity %q is recursively referenced", name)
		}
	}
	return nil
}

// PopAutoPopped pops frames marked AutoPop that have reached EOF, repeating
// until the new top is not both AutoPop and exhausted. This is how
// parameter-entity inclusion in the DTD is made transparent to the lexer:
// the lexer only ever observes non-auto-pop frames or a live auto-pop frame.
func (s *Stack) PopAutoPopped() {
	for {
		f := s.Current()
		if f == nil || !f.AutoPop || !f.IsEOF() {
			return
		}
		s.Pop()
	}
}
