package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// QueryKind distinguishes single-parcel requests from assemblage requests.
type QueryKind string

const (
	QueryKindSingle     QueryKind = "single"
	QueryKindAssemblage QueryKind = "assemblage"
)

// AddressQuery is the validated raw input to a feasibility run. Single-parcel
// queries carry exactly one address; assemblage queries carry two or more.
// Immutable once accepted.
type AddressQuery struct {
	Kind      QueryKind `json:"kind"`
	Addresses []string  `json:"addresses"`
}

// NewSingleQuery validates and wraps a single address.
func NewSingleQuery(address string) (AddressQuery, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return AddressQuery{}, eris.New("query: empty address")
	}
	return AddressQuery{Kind: QueryKindSingle, Addresses: []string{address}}, nil
}

// NewAssemblageQuery validates and wraps two or more addresses.
func NewAssemblageQuery(addresses []string) (AddressQuery, error) {
	if len(addresses) < 2 {
		return AddressQuery{}, eris.Errorf("query: assemblage requires at least 2 addresses, got %d", len(addresses))
	}
	trimmed := make([]string, 0, len(addresses))
	for i, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			return AddressQuery{}, eris.Errorf("query: empty address at position %d", i)
		}
		trimmed = append(trimmed, a)
	}
	return AddressQuery{Kind: QueryKindAssemblage, Addresses: trimmed}, nil
}
