package node

import "net/http"

// AllowLocalDocuments lets document fetches reach plain-http test servers
// on loopback.
func AllowLocalDocuments(c *Client) {
	c.documentClient = &http.Client{Timeout: documentTimeout}
	c.documentSchemes = []string{"http", "https"}
}
