package codegen

import (
	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/token"
)

// labelStatus tracks whether a user-written goto label has been referenced,
// defined, or both, so that dangling gotos can be caught once the whole
// function has been walked.
type labelStatus int

const (
	labelReferenced labelStatus = iota
	labelDefined
)

type labelInfo struct {
	status labelStatus
	tok    token.Token
}

// labelSet tracks every goto label used or defined within one function
// body. A label only ever needs resolving once the function is fully
// walked, since goto may jump forward to a label not yet seen.
type labelSet struct {
	labels map[string]*labelInfo
}

func newLabelSet() *labelSet {
	return &labelSet{labels: make(map[string]*labelInfo)}
}

// reference records a goto target. It does not error even if the label is
// never defined; that's deferred to check().
func (s *labelSet) reference(name string, tok token.Token) {
	if _, ok := s.labels[name]; !ok {
		s.labels[name] = &labelInfo{status: labelReferenced, tok: tok}
	}
}

// define records a label declaration. A second definition of the same name
// is a hard error; upgrading a referenced-only entry to defined is not.
func (s *labelSet) define(name string, tok token.Token) error {
	if info, ok := s.labels[name]; ok {
		if info.status == labelDefined {
			prior := info.tok
			return ccerror.Semanticf(&tok, &prior, "redefinition of label %q", name)
		}
		info.status = labelDefined
		info.tok = tok
		return nil
	}
	s.labels[name] = &labelInfo{status: labelDefined, tok: tok}
	return nil
}

// check reports the first label that was referenced by a goto but never
// defined anywhere in the function.
func (s *labelSet) check() error {
	for name, info := range s.labels {
		if info.status != labelDefined {
			return ccerror.Semanticf(&info.tok, nil, "use of undefined label %q", name)
		}
	}
	return nil
}
