package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "hotels.example.com", NormalizeDomain("Hotels.Example.COM"))
	assert.Equal(t, "hotels.example.com", NormalizeDomain("hotels.example.com:8443"))
	assert.Equal(t, "hotels.example.com", NormalizeDomain("www.hotels.example.com"))
	assert.Equal(t, "localhost", NormalizeDomain("localhost:3000"))
}

func TestDomainAllowed(t *testing.T) {
	allowed := []string{"grand-plaza.com", "www.Booking-Partner.COM"}

	assert.True(t, DomainAllowed("grand-plaza.com", allowed))
	assert.True(t, DomainAllowed("www.grand-plaza.com", allowed), "www variant matches")
	assert.True(t, DomainAllowed("de.grand-plaza.com", allowed), "subdomain matches")
	assert.True(t, DomainAllowed("booking-partner.com", allowed), "list entries are normalized")

	assert.False(t, DomainAllowed("grand-plaza.com.evil.io", allowed))
	assert.False(t, DomainAllowed("notgrand-plaza.com", allowed))
	assert.False(t, DomainAllowed("grand-plaza.com", nil))
}
