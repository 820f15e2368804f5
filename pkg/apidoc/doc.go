// Package apidoc embeds the OpenAPI contract of the drafts API and validates
// incoming CV records against it with kin-openapi.
package apidoc
