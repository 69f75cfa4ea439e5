package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/go-faster/errors"
)

type Kind string

const (
	KindCollection Kind = "collection"
	KindSearch     Kind = "search"
	KindTopic      Kind = "topic"
	KindUser       Kind = "user"
)

// Kinds lists every selection kind the extension options can produce.
var Kinds = []Kind{KindCollection, KindSearch, KindTopic, KindUser}

var ErrInvalidKind = errors.New("invalid kind")

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds, k) {
		return "", errors.Wrapf(ErrInvalidKind, "%q", s)
	}
	return k, nil
}

// Supported reports whether the upstream lookup for k is implemented.
// topic and user are reserved.
func (k Kind) Supported() bool {
	return k == KindCollection || k == KindSearch
}

type SelectionCriterion struct {
	Kind  Kind
	Value string
}

// NewSelectionCriterion validates the raw key/value pair sent by a widget.
func NewSelectionCriterion(key, value string) (SelectionCriterion, error) {
	if key == "" || value == "" {
		return SelectionCriterion{}, BadRequest("Missing required parameters")
	}

	kind, err := ParseKind(key)
	if err != nil {
		return SelectionCriterion{}, BadRequest("Invalid key parameter")
	}

	return SelectionCriterion{Kind: kind, Value: value}, nil
}

// CheckSupported rejects kinds that have no upstream lookup.
func (c SelectionCriterion) CheckSupported() error {
	if !c.Kind.Supported() {
		return BadRequest(fmt.Sprintf("Invalid key parameter: %s is not supported", c.Kind))
	}
	return nil
}

// Hash is a stable digest of the criterion, usable as a storage key.
func (c SelectionCriterion) Hash() string {
	sum := sha256.Sum256([]byte(string(c.Kind) + "\x00" + c.Value))
	return hex.EncodeToString(sum[:])
}

type Author struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Photo is the canonical shape served to widgets. Color is nil when the
// upstream record has none.
type Photo struct {
	Author Author  `json:"author"`
	URL    string  `json:"url"`
	Color  *string `json:"color"`
}

// CachedPhoto is the record a widget keeps between page loads.
type CachedPhoto struct {
	Photo     Photo `json:"photo"`
	ExpiresAt int64 `json:"expiresAt"` // epoch milliseconds
}

type ErrorEnvelope struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
