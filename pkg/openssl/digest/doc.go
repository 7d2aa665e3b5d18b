// Package digest wraps the EVP message digest interface. A Digest owns one
// native EVP_MD_CTX and streams data into it; algorithm selection happens
// inside the native library by name.
package digest
