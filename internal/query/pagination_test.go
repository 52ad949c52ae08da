package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageFallsBackOnBadInput(t *testing.T) {
	cases := map[string]Page{
		"":                  {Number: 1, Size: 10},
		"page=0&limit=-3":   {Number: 1, Size: 10},
		"page=abc&limit=xy": {Number: 1, Size: 10},
		"page=3&limit=25":   {Number: 3, Size: 25},
	}
	for raw, want := range cases {
		values, _ := url.ParseQuery(raw)
		assert.Equal(t, want, ParsePage(values), raw)
	}
}

func TestPaginateFirstPage(t *testing.T) {
	pg := Page{Number: 1, Size: 2}.Paginate(5)

	assert.Equal(t, &Link{Page: 2, Limit: 2}, pg.Next)
	assert.Nil(t, pg.Prev)
}

func TestPaginateMiddlePage(t *testing.T) {
	pg := Page{Number: 2, Size: 2}.Paginate(5)

	assert.Equal(t, &Link{Page: 3, Limit: 2}, pg.Next)
	assert.Equal(t, &Link{Page: 1, Limit: 2}, pg.Prev)
}

func TestPaginateLastPage(t *testing.T) {
	pg := Page{Number: 3, Size: 2}.Paginate(5)

	assert.Nil(t, pg.Next)
	assert.Equal(t, &Link{Page: 2, Limit: 2}, pg.Prev)
}

func TestPaginateExactBoundaryHasNoNext(t *testing.T) {
	pg := Page{Number: 2, Size: 5}.Paginate(10)

	assert.Nil(t, pg.Next)
	assert.NotNil(t, pg.Prev)
}

func TestPaginatePastTheEnd(t *testing.T) {
	pg := Page{Number: 9, Size: 10}.Paginate(5)

	assert.Nil(t, pg.Next)
	assert.Equal(t, &Link{Page: 8, Limit: 10}, pg.Prev)
}

func TestPaginateEmptyResult(t *testing.T) {
	pg := Page{Number: 1, Size: 10}.Paginate(0)

	assert.Nil(t, pg.Next)
	assert.Nil(t, pg.Prev)
}
