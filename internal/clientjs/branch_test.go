package clientjs

import (
	"strings"
	"testing"

	"github.com/kfly8/barefootjs-sub004/internal/ir"
	"gotest.tools/v3/assert"
)

func TestBranchValueRendersTextBranches(t *testing.T) {
	out := branchValue("s0", &ir.Text{Value: "yes"})
	assert.Assert(t, strings.Contains(out, "template: `yes`"))
	assert.Assert(t, strings.Contains(out, "bindEvents: (branchScope) => {"))
}

func TestBranchValueNilIsNullMarker(t *testing.T) {
	assert.Equal(t, branchValue("s0", nil), "null")
}

func TestBranchValueBindsEventsOnElementBranch(t *testing.T) {
	el := &ir.Element{
		Tag: "button",
		Events: []ir.Event{
			{Name: "click", Handler: "onSave"},
		},
		Children: []ir.Node{&ir.Text{Value: "Save"}},
	}
	out := branchValue("s3", el)
	assert.Assert(t, strings.Contains(out, `data-bf-cond="s3"`))
	assert.Assert(t, strings.Contains(out, "querySelectorAll('[data-bf-cond]')[0]"))
	assert.Assert(t, strings.Contains(out, "addEventListener('click', onSave)"))
}
