package md2slides

import "github.com/alnah/go-md2slides/internal/pipeline"

// blockContext derives list membership and blockquote membership for a block
// from its ancestor chain.
//
// Level counts enclosing lists minus one. Ordering is a single flag for the
// whole item: Google Slides cannot mix numbered and bulleted markers inside
// one nested list, so any ordered ancestor makes the item ordered.
func blockContext(tree *pipeline.Tree, id pipeline.NodeID) (listItem *ListItemData, isBlockquote bool) {
	for p := range tree.Ancestors(id) {
		switch n := tree.Node(p); n.Kind {
		case pipeline.KindList:
			if listItem == nil {
				listItem = &ListItemData{}
			} else {
				listItem.Level++
			}
			if n.Ordered {
				listItem.IsOrdered = true
			}
		case pipeline.KindBlockquote:
			isBlockquote = true
		}
	}
	return listItem, isBlockquote
}
