// Package content serves the platform's editorial catalog: blog posts,
// protocol learning pages and tool guides. The catalog is read-only from
// the API's point of view; editing happens in source control.
package content

import "errors"

// BlogPost is one article on the learning blog.
type BlogPost struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Author   string   `json:"author"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	ReadTime string   `json:"readTime"`
	Tags     []string `json:"tags"`
}

// TransportLayer describes how a protocol moves on the wire.
type TransportLayer struct {
	Type        string `json:"type"`
	Port        int    `json:"port"`
	Description string `json:"description"`
}

// HMIConfig says whether a protocol page embeds the operator UI.
type HMIConfig struct {
	Enabled    bool   `json:"enabled"`
	HMIPath    string `json:"hmiPath,omitempty"`
	ServerPort int    `json:"serverPort,omitempty"`
}

// LibraryDoc links a client library for a protocol.
type LibraryDoc struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Language string `json:"language"`
}

// ProtocolPage is the learning page for one industrial protocol. Its ID
// matches the protocol identifier the lab controller uses.
type ProtocolPage struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ShortDescription string         `json:"shortDescription"`
	Overview         string         `json:"overview"`
	TransportLayer   TransportLayer `json:"transportLayer"`
	HMI              HMIConfig      `json:"hmiConfig"`
	TestWorkflow     []string       `json:"testWorkflow"`
	RelatedBlogs     []string       `json:"relatedBlogs"`
	LibraryDocs      []LibraryDoc   `json:"libraryDocs"`
	Icon             string         `json:"icon"`
	GuestAccess      bool           `json:"guestAccess"`
}

// Tool is a guide page for an analysis or tooling product.
type Tool struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Content        string `json:"content"`
	Category       string `json:"category"`
	Version        string `json:"version,omitempty"`
	InstallCommand string `json:"installCommand,omitempty"`
	DocsURL        string `json:"docsUrl,omitempty"`
	Icon           string `json:"icon"`
}

var ErrNotFound = errors.New("not found")

// Store is the catalog the API reads from.
type Store interface {
	BlogPosts() []BlogPost
	BlogPost(slug string) (BlogPost, error)
	Protocols() []ProtocolPage
	Protocol(id string) (ProtocolPage, error)
	Tools() []Tool
	Tool(slug string) (Tool, error)
}
