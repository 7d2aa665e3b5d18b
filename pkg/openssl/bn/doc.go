// Package bn wraps OpenSSL's arbitrary-precision integers. A BigNum owns
// one native BIGNUM and must be released with Close; arithmetic never
// mutates its operands.
package bn
