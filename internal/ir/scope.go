package ir

import "strings"

// propagateLoopSlots implements spec §4.4's loop-slot propagation: after
// lowering a parent element's children, a loop directly among those
// children (including through fragments, but not through another element)
// adopts the parent's slot id instead of minting its own.
func propagateLoopSlots(n Node, ownerSlot string) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *Element:
		for _, c := range v.Children {
			propagateLoopSlots(c, v.SlotID)
		}
	case *Fragment:
		for _, c := range v.Children {
			propagateLoopSlots(c, ownerSlot)
		}
	case *Conditional:
		propagateLoopSlots(v.WhenTrue, "")
		propagateLoopSlots(v.WhenFalse, "")
	case *Loop:
		if v.SlotID == "" {
			v.SlotID = ownerSlot
		}
		for _, c := range v.Children {
			propagateLoopSlots(c, "")
		}
	case *Component:
		for _, c := range v.Children {
			propagateLoopSlots(c, "")
		}
	case *Provider:
		for _, c := range v.Children {
			propagateLoopSlots(c, "")
		}
	case *IfStatement:
		propagateLoopSlots(v.Consequent, "")
		propagateLoopSlots(v.Alternate, "")
	}
}

// markParentOwnedSlots implements the `^`-prefix rewrite from spec §4.4 and
// §9: any slot id minted for markup inside a component's slot children
// (the JSX written between a component's open and close tags) is rewritten
// with a leading `^`, scoped freshly at every Component boundary. A
// component's own slot id is never prefixed.
func markParentOwnedSlots(root Node) {
	applyPrefix(root, false)
}

func applyPrefix(n Node, prefix bool) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *Element:
		if prefix && v.SlotID != "" && !strings.HasPrefix(v.SlotID, "^") {
			v.SlotID = "^" + v.SlotID
		}
		for _, c := range v.Children {
			applyPrefix(c, prefix)
		}
	case *Expression:
		if prefix && v.SlotID != "" && !strings.HasPrefix(v.SlotID, "^") {
			v.SlotID = "^" + v.SlotID
		}
	case *Conditional:
		if prefix && v.SlotID != "" && !strings.HasPrefix(v.SlotID, "^") {
			v.SlotID = "^" + v.SlotID
		}
		applyPrefix(v.WhenTrue, prefix)
		applyPrefix(v.WhenFalse, prefix)
	case *Loop:
		if prefix && v.SlotID != "" && !strings.HasPrefix(v.SlotID, "^") {
			v.SlotID = "^" + v.SlotID
		}
		for _, c := range v.Children {
			applyPrefix(c, prefix)
		}
	case *Component:
		for _, c := range v.Children {
			applyPrefix(c, true)
		}
	case *Fragment:
		for _, c := range v.Children {
			applyPrefix(c, prefix)
		}
	case *Provider:
		for _, c := range v.Children {
			applyPrefix(c, prefix)
		}
	case *IfStatement:
		applyPrefix(v.Consequent, prefix)
		applyPrefix(v.Alternate, prefix)
	}
}
