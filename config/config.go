package config

import "time"

type (
	URI struct {
		// MaxRequestLineSize caps the length of the request line, the line break
		// included. Longer lines are answered with a 400.
		MaxRequestLineSize int
	}

	Headers struct {
		// MaxLineSize caps a single header line, the name, the colon and the line break
		// included. Longer lines are answered with a 400.
		MaxLineSize int
		// Default headers are headers to be included into every response implicitly, unless
		// explicitly overridden. They extend the app's stock set.
		Default map[string]string `test:"nullable"`
	}

	Body struct {
		// MaxSize is the cap on Content-Length for routes that don't set their own.
		MaxSize int64
	}

	HTTP struct {
		// ResponseBuffSize is the initial size of the buffer a response head is rendered
		// into. The buffer grows when a response doesn't fit.
		ResponseBuffSize int
		// FileChunkSize is the size of the buffer used to stream files to the client.
		FileChunkSize int
		// FileCacheMaxAge is the default Cache-Control TTL for served files, in seconds.
		FileCacheMaxAge int64
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket.
		ReadBufferSize int
		// ReadTimeout limits how long a single request may take to arrive. Connections
		// stalling longer are dropped without a response, as if the peer went away.
		ReadTimeout time.Duration
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize
// the config manually, because most likely this will result in ambiguous errors.
type Config struct {
	URI     URI
	Headers Headers
	Body    Body
	HTTP    HTTP
	NET     NET
}

// Default returns default config. The values suit the small, mostly RESTful
// applications this server is aimed at; tune the fields before passing it anywhere.
func Default() *Config {
	return &Config{
		URI: URI{
			MaxRequestLineSize: 2 * 1024,
		},
		Headers: Headers{
			MaxLineSize: 4 * 1024, // there might be extremely long cookies.
			Default:     make(map[string]string),
		},
		Body: Body{
			MaxSize: 1024,
		},
		HTTP: HTTP{
			ResponseBuffSize: 1024,
			FileChunkSize:    128,
			FileCacheMaxAge:  2592000, // 30 days
		},
		NET: NET{
			ReadBufferSize: 2 * 1024, // more than enough for ordinary requests.
			ReadTimeout:    90 * time.Second,
		},
	}
}
