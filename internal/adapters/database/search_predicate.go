package database

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

// BuildSearchPredicate maps a search request onto the columns it filters.
// Location searches span city, region and address so a free-form term like
// "Ikeja" matches regardless of which field the record filled in. Issue
// searches reuse the specialization match; symptoms have no dedicated column.
func BuildSearchPredicate(req entities.SearchRequest) (exp.Expression, error) {
	pattern := "%" + req.SearchTerm + "%"

	switch req.SearchType {
	case entities.SearchTypeLocation:
		return goqu.Or(
			goqu.C("city").ILike(pattern),
			goqu.C("region").ILike(pattern),
			goqu.C("address").ILike(pattern),
		), nil
	case entities.SearchTypeName:
		return goqu.C("name").ILike(pattern), nil
	case entities.SearchTypeSpecialization, entities.SearchTypeIssue:
		return goqu.L("EXISTS (SELECT 1 FROM unnest(specializations) AS s WHERE s ILIKE ?)", pattern), nil
	default:
		return nil, fmt.Errorf("unsupported search type %q", req.SearchType)
	}
}
