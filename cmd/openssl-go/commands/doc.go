// Package commands implements the openssl-go command line tool, a small
// front end over the binding packages for inspecting the linked library
// and exercising common primitives.
package commands
