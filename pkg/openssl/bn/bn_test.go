package bn_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/bn"
)

func mustNum(t *testing.T, s string) *bn.BigNum {
	t.Helper()
	v, err := bn.FromDecStr(s)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestDecStrRoundTrip(t *testing.T) {
	x := mustNum(t, "12345678901234567890")
	s, err := x.DecStr()
	require.NoError(t, err)
	require.Equal(t, "12345678901234567890", s)
}

func TestFromDecStrRejectsGarbage(t *testing.T) {
	_, err := bn.FromDecStr("Cannot parse letters")
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.Error(t, err)
}

func TestFromDecStrRejectsTrailingGarbage(t *testing.T) {
	_, err := bn.FromDecStr("123abc")
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.Error(t, err)
}

func TestBytesRoundTrip(t *testing.T) {
	x := mustNum(t, "65537")
	raw, err := x.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x01}, raw)

	y, err := bn.FromBytes(raw)
	require.NoError(t, err)
	defer y.Close()
	require.Zero(t, x.Cmp(y))
}

func TestArithmeticMatchesMathBig(t *testing.T) {
	const as = "123456789123456789123456789"
	const bs = "987654321987654321"

	a := mustNum(t, as)
	b := mustNum(t, bs)

	ga, _ := new(big.Int).SetString(as, 10)
	gb, _ := new(big.Int).SetString(bs, 10)

	sum, err := a.Add(b)
	require.NoError(t, err)
	defer sum.Close()
	got, err := sum.DecStr()
	require.NoError(t, err)
	require.Equal(t, new(big.Int).Add(ga, gb).String(), got)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	defer diff.Close()
	got, err = diff.DecStr()
	require.NoError(t, err)
	require.Equal(t, new(big.Int).Sub(ga, gb).String(), got)

	prod, err := a.Mul(b)
	require.NoError(t, err)
	defer prod.Close()
	got, err = prod.DecStr()
	require.NoError(t, err)
	require.Equal(t, new(big.Int).Mul(ga, gb).String(), got)
}

func TestModExpMatchesMathBig(t *testing.T) {
	base := mustNum(t, "7")
	exp := mustNum(t, "560")
	mod := mustNum(t, "561")

	r, err := base.ModExp(exp, mod)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.DecStr()
	require.NoError(t, err)
	want := new(big.Int).Exp(big.NewInt(7), big.NewInt(560), big.NewInt(561))
	require.Equal(t, want.String(), got)
}

func TestCloseIsIdempotent(t *testing.T) {
	x := mustNum(t, "42")
	require.NoError(t, x.Close())
	require.NoError(t, x.Close())

	_, err := x.DecStr()
	require.Error(t, err)
}
