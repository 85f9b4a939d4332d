package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateTitleRequest_Year(t *testing.T) {
	current := time.Now().Year()

	for _, year := range []int{1895, current - 1, current} {
		req := CreateTitleRequest{Name: "Some Title", Year: year}
		assert.NoError(t, req.Validate(), "year %d", year)
	}

	for _, year := range []int{current + 1, current + 100} {
		req := CreateTitleRequest{Name: "Some Title", Year: year}
		assert.Error(t, req.Validate(), "year %d", year)
	}
}

func TestUpdateTitleRequest_Year(t *testing.T) {
	future := time.Now().Year() + 1
	req := UpdateTitleRequest{Year: &future}
	assert.Error(t, req.Validate())

	past := 1999
	req = UpdateTitleRequest{Year: &past}
	assert.NoError(t, req.Validate())

	assert.NoError(t, UpdateTitleRequest{}.Validate(), "empty patch is valid")
}
