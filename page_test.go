package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCopy(t *testing.T) {
	p := pageCopy()
	assert.Contains(t, p.Title, "Binil Vincent")
	assert.NotEmpty(t, p.AboutMe)
	assert.NotEmpty(t, p.QuickReplies)
}
