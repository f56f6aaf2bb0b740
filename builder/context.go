package builder

import (
	"golang.org/x/exp/slices"

	"github.com/ledgerscript/beancount/ast"
)

// TagContext tracks the implicit tag and metadata state introduced by
// pushtag/poptag and pushmeta/popmeta directives. It is explicit and owned
// by a single parse (typically embedded in a TreeBuilder) rather than
// global, so concurrent parses never interfere with each other.
//
// Tags are kept as an ordered multiset: pushing the same tag twice requires
// popping it twice before it stops applying, matching the reference
// beancount implementation. Metadata keys use last-pushed-wins: pushing the
// same key twice shadows the earlier value until the inner push is popped.
type TagContext struct {
	tagOrder []ast.Tag
	tagCount map[ast.Tag]int

	metaStack map[string][]*ast.MetadataValue
}

// NewTagContext returns an empty TagContext.
func NewTagContext() *TagContext {
	return &TagContext{
		tagCount:  make(map[ast.Tag]int),
		metaStack: make(map[string][]*ast.MetadataValue),
	}
}

// PushTag adds tag to the active set.
func (c *TagContext) PushTag(tag ast.Tag) {
	if c.tagCount[tag] == 0 {
		c.tagOrder = append(c.tagOrder, tag)
	}
	c.tagCount[tag]++
}

// PopTag removes one occurrence of tag from the active set. Returns false if
// tag was not active (the grammar engine turns that into a builder error).
func (c *TagContext) PopTag(tag ast.Tag) bool {
	if c.tagCount[tag] <= 0 {
		return false
	}
	c.tagCount[tag]--
	if c.tagCount[tag] == 0 {
		delete(c.tagCount, tag)
		for i, t := range c.tagOrder {
			if t == tag {
				c.tagOrder = append(c.tagOrder[:i], c.tagOrder[i+1:]...)
				break
			}
		}
	}
	return true
}

// ActiveTags returns the currently pushed tags in the order they were first
// pushed. The returned slice is a fresh copy; callers may retain it.
func (c *TagContext) ActiveTags() []ast.Tag {
	if len(c.tagOrder) == 0 {
		return nil
	}
	out := make([]ast.Tag, len(c.tagOrder))
	copy(out, c.tagOrder)
	return out
}

// PushMeta shadows key with value until the matching PopMeta.
func (c *TagContext) PushMeta(key string, value *ast.MetadataValue) {
	c.metaStack[key] = append(c.metaStack[key], value)
}

// PopMeta removes the most recent push for key. Returns false if key had no
// active push.
func (c *TagContext) PopMeta(key string) bool {
	stack := c.metaStack[key]
	if len(stack) == 0 {
		return false
	}
	c.metaStack[key] = stack[:len(stack)-1]
	if len(c.metaStack[key]) == 0 {
		delete(c.metaStack, key)
	}
	return true
}

// ActiveMeta returns the currently pushed metadata as key/value pairs, one
// per key, using each key's most recently pushed value.
func (c *TagContext) ActiveMeta() []*ast.Metadata {
	if len(c.metaStack) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.metaStack))
	for key := range c.metaStack {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := make([]*ast.Metadata, 0, len(keys))
	for _, key := range keys {
		stack := c.metaStack[key]
		out = append(out, &ast.Metadata{Key: key, Value: stack[len(stack)-1]})
	}
	return out
}
