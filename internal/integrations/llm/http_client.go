package llm

import "portfoliodash/internal/httpx"

var externalHTTPClient = httpx.ExternalHTTPClient()
