package signature

import (
	"encoding/json"
	"errors"
	"testing"
)

var checkoutFields = []string{"clientid", "oid", "amount", "okUrl", "failUrl", "islemtipi", "taksit", "rnd"}

func checkoutParams() Params {
	return Params{
		{Name: "clientid", Value: "180000335"},
		{Name: "amount", Value: "25.00"},
		{Name: "oid", Value: "ORD-1700000000000"},
		{Name: "okUrl", Value: "https://shop.example/payment-success.html?orderId=ORD-1700000000000"},
		{Name: "failUrl", Value: "https://shop.example/payment-failed.html?orderId=ORD-1700000000000"},
		{Name: "rnd", Value: "0123456789abcdef0123"},
		{Name: "currency", Value: "807"},
		{Name: "storetype", Value: "3D_PAY_HOSTING"},
		{Name: "islemtipi", Value: "Auth"},
		{Name: "taksit", Value: ""},
		{Name: "lang", Value: "en"},
		{Name: "encoding", Value: "UTF-8"},
	}
}

func TestPositionalCanonicalAndSignature(t *testing.T) {
	signer := NewPositionalSigner("SKEY0335", checkoutFields...)
	params := checkoutParams()

	wantCanonical := "180000335ORD-170000000000025.00" +
		"https://shop.example/payment-success.html?orderId=ORD-1700000000000" +
		"https://shop.example/payment-failed.html?orderId=ORD-1700000000000" +
		"Auth0123456789abcdef0123SKEY0335"
	if got := signer.Canonical(params); got != wantCanonical {
		t.Fatalf("unexpected canonical string:\n got %q\nwant %q", got, wantCanonical)
	}

	sig, err := signer.Sign(params)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	want := "6frf3xUHgfXZBJjV1M7y+m16by9TaWLMB/p914+WztXvgfNOejBKE2Qa7vgmelV8mZ1u3h8CSuSlMXVg/jLhow=="
	if sig != want {
		t.Fatalf("expected %s, got %s", want, sig)
	}
}

func TestPositionalMissingFieldReadsAsEmpty(t *testing.T) {
	signer := NewPositionalSigner("K", "a", "b", "c")
	params := Params{{Name: "a", Value: "1"}, {Name: "c", Value: "3"}}
	if got := signer.Canonical(params); got != "13K" {
		t.Fatalf("expected 13K, got %q", got)
	}
}

func TestDirectAPISignature(t *testing.T) {
	signer := NewPositionalSigner("SKEY0335", "orderid", "amount", "currency")
	sig, err := signer.Sign(Params{
		{Name: "orderid", Value: "TEST-1700000000000"},
		{Name: "amount", Value: "25.00"},
		{Name: "currency", Value: "807"},
	})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if sig != "OSK4DSWMEmMeM4Jbh3hNH/0YpaYG5yeZUdhTlZDUrxfPYE4LmkB6cw1SfUQ0HvAKFSoprGt8JIzroQqtNhGFNA==" {
		t.Fatalf("unexpected direct api signature %s", sig)
	}
}

func TestHashV3CanonicalSortsAndExcludes(t *testing.T) {
	signer := NewHashV3Signer("SKEY0335")
	params := Params{
		{Name: "rnd", Value: "abc"},
		{Name: "HASH", Value: "previous"},
		{Name: "oid", Value: "ORD-1700000000000"},
		{Name: "Encoding", Value: "UTF-8"},
		{Name: "clientid", Value: "180000335"},
		{Name: "amount", Value: "25.00"},
	}

	if got := signer.Canonical(params); got != "25.00|180000335|ORD-1700000000000|abc|SKEY0335" {
		t.Fatalf("unexpected canonical string %q", got)
	}

	sig, err := signer.Sign(params)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if sig != "FYGe7NFY3ZioxwDdOy3nyZB0RJN0xoBTkaJUOVMjB3vd2ps77OovAp5h2vpbb6E7D977vFiSptSixq4G+lTmiQ==" {
		t.Fatalf("unexpected hashv3 signature %s", sig)
	}
}

func TestHashV3IgnoresInsertionOrder(t *testing.T) {
	signer := NewHashV3Signer("SKEY0335")
	a := Params{{Name: "oid", Value: "1"}, {Name: "Amount", Value: "2"}, {Name: "clientid", Value: "3"}}
	b := Params{{Name: "clientid", Value: "3"}, {Name: "oid", Value: "1"}, {Name: "Amount", Value: "2"}}

	sigA, _ := signer.Sign(a)
	sigB, _ := signer.Sign(b)
	if sigA != sigB {
		t.Fatalf("expected equal signatures, got %s and %s", sigA, sigB)
	}
}

func TestHashV3CaseTiesOrderedByRawName(t *testing.T) {
	a := Params{{Name: "oid", Value: "lower"}, {Name: "OID", Value: "upper"}}
	b := Params{{Name: "OID", Value: "upper"}, {Name: "oid", Value: "lower"}}

	if got := canonicalHashV3(a, "K"); got != "upper|lower|K" {
		t.Fatalf("unexpected canonical string %q", got)
	}
	if canonicalHashV3(a, "K") != canonicalHashV3(b, "K") {
		t.Fatal("expected case ties to ignore insertion order")
	}
}

func TestHashV3ExcludedKeysDoNotAffectSignature(t *testing.T) {
	signer := NewHashV3Signer("SKEY0335")
	base := Params{{Name: "oid", Value: "1"}}
	baseSig, _ := signer.Sign(base)

	for _, name := range []string{"hash", "HASH", "Hash", "encoding", "ENCODING", "Encoding"} {
		params := base.Clone()
		params.Set(name, "anything")
		sig, _ := signer.Sign(params)
		if sig != baseSig {
			t.Fatalf("expected %q to be excluded from signature", name)
		}
	}
}

func TestHashV3Escaping(t *testing.T) {
	signer := NewHashV3Signer("K")

	pipe := Params{{Name: "a", Value: `a|b`}}
	escaped := Params{{Name: "a", Value: `a\|b`}}

	if got := signer.Canonical(pipe); got != `a\|b|K` {
		t.Fatalf("unexpected canonical for pipe: %q", got)
	}
	if got := signer.Canonical(escaped); got != `a\\\|b|K` {
		t.Fatalf("unexpected canonical for backslash-pipe: %q", got)
	}

	sigPipe, _ := signer.Sign(pipe)
	sigEscaped, _ := signer.Sign(escaped)
	if sigPipe != "e9MXl35B+0AgSLJcNNIMges7R+IKRcJEpunIZWG7oajU3vRcu4qcOMdA7BqYedgWt4sjDr1olKnMPX88qCNCog==" {
		t.Fatalf("unexpected signature for pipe value: %s", sigPipe)
	}
	if sigEscaped != "vJmd9X6GGYDvhKBl8HJPo8U9q/8aYh9GPBlrwoPRBK77/2k8wTfz5MGG4NR0/j+BYnmUuedAHoRduPMre9yA1A==" {
		t.Fatalf("unexpected signature for escaped value: %s", sigEscaped)
	}
}

func TestHashV3EscapesStoreKey(t *testing.T) {
	signer := NewHashV3Signer(`k|e\y`)
	if got := signer.Canonical(Params{{Name: "a", Value: "1"}}); got != `1|k\|e\\y` {
		t.Fatalf("unexpected canonical %q", got)
	}
}

func TestSignThenVerifyRoundTrip(t *testing.T) {
	signers := []*Signer{
		NewPositionalSigner("SKEY0335", checkoutFields...),
		NewHashV3Signer("SKEY0335"),
	}
	for _, signer := range signers {
		t.Run(signer.Policy().String(), func(t *testing.T) {
			signed, err := signer.Attach(checkoutParams())
			if err != nil {
				t.Fatalf("attach failed: %v", err)
			}
			if err := signer.Verify(signed, signed.Get(HashField)); err != nil {
				t.Fatalf("expected verification to pass, got %v", err)
			}
		})
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	signer := NewPositionalSigner("SKEY0335", checkoutFields...)
	params := checkoutParams()
	sig, _ := signer.Sign(params)

	for i := range sig {
		tampered := []byte(sig)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		if err := signer.Verify(params, string(tampered)); !errors.Is(err, ErrSignatureMismatch) {
			t.Fatalf("expected mismatch for tamper at %d, got %v", i, err)
		}
	}
	if err := signer.Verify(params, ""); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected mismatch for empty signature, got %v", err)
	}
}

func TestVerifyRejectsTamperedAmount(t *testing.T) {
	for _, signer := range []*Signer{NewPositionalSigner("SKEY0335", checkoutFields...), NewHashV3Signer("SKEY0335")} {
		params := checkoutParams()
		sig, _ := signer.Sign(params)
		params.Set("amount", "2.50")
		if err := signer.Verify(params, sig); !errors.Is(err, ErrSignatureMismatch) {
			t.Fatalf("%s: expected mismatch after amount tamper, got %v", signer.Policy(), err)
		}
	}
}

func TestSignRequiresStoreKey(t *testing.T) {
	if _, err := NewHashV3Signer(" ").Sign(Params{}); !errors.Is(err, ErrMissingStoreKey) {
		t.Fatalf("expected ErrMissingStoreKey, got %v", err)
	}
}

func TestParamsMarshalJSONKeepsOrder(t *testing.T) {
	params := Params{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `{"b":"2","a":"1"}` {
		t.Fatalf("unexpected json %s", raw)
	}
}

func TestParamsSetReplacesInPlace(t *testing.T) {
	params := Params{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	params.Set("a", "3")
	params.Set("c", "4")
	if len(params) != 3 || params[0].Value != "3" || params[2].Name != "c" {
		t.Fatalf("unexpected params %+v", params)
	}
}
