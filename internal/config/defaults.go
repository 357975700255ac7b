package config

import "gopkg.in/yaml.v2"

const defaultsYAML = `
site:
  title: My Site
  description: A static site
  author: Anonymous
  baseURL: ""
paths:
  content: ./content
  templates: ./templates
  output: ./public
  static: ./static
markdown:
  hardWraps: false
  unsafeHTML: false
  highlight: ""
server:
  port: 3000
  autoOpen: false
  startupDelayMs: 1000
build:
  clean: true
  generateHomepage: true
`

// Defaults returns the default configuration document as a fresh mapping,
// safe for the caller to merge into.
func Defaults() map[interface{}]interface{} {
	var doc map[interface{}]interface{}
	if err := yaml.Unmarshal([]byte(defaultsYAML), &doc); err != nil {
		panic("config: invalid defaults document: " + err.Error())
	}
	return doc
}
