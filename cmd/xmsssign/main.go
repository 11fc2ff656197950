// Command xmsssign is a thin CLI front end over the xmss package:
// keygen, sign, and verify, each reading and writing the wire formats
// package serialize defines.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/serialize"
	"github.com/aerius-labs/xmss-koalabear/xmss"
	"github.com/celer-network/goutils/log"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "keygen":
		err = runKeyGen(os.Args[2:])
	case "sign":
		err = runSign(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: xmsssign <keygen|sign|verify> [flags]")
}

func lookupProfile(name string) *params.LifetimeParams {
	lp, ok := params.ByName(name)
	if !ok {
		log.Fatalf("unknown profile %q (want one of L8, L18, L32)", name)
	}
	return lp
}

func decodeSeed(seedHex string) [32]byte {
	var seed [32]byte
	if seedHex == "" {
		return seed
	}
	raw, err := hex.DecodeString(seedHex)
	if err != nil {
		log.Fatalf("decode seed: %v", err)
	}
	copy(seed[:], raw)
	return seed
}

func decodeMessage(messageHex string) []byte {
	raw, err := hex.DecodeString(messageHex)
	if err != nil {
		log.Fatalf("decode message: %v", err)
	}
	if len(raw) != xmss.MessageLength {
		log.Fatalf("message must be %d bytes, got %d", xmss.MessageLength, len(raw))
	}
	return raw
}

func runKeyGen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	profile := fs.String("profile", "L8", "lifetime profile: L8, L18, L32")
	seedHex := fs.String("seed", "", "hex-encoded 32-byte seed (defaults to all-zero)")
	activation := fs.Uint64("activation", 0, "first active epoch")
	activeEpochs := fs.Uint64("active-epochs", 256, "number of active epochs")
	outPK := fs.String("out-pk", "pk.bin", "output path for the public key")
	outSK := fs.String("out-sk", "sk.bin", "output path for the secret key")
	fs.Parse(args)

	lp := lookupProfile(*profile)
	seed := decodeSeed(*seedHex)

	s := xmss.Init(lp, seed)
	pk, sk, err := s.KeyGen(*activation, *activeEpochs)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}

	if err := os.WriteFile(*outPK, serialize.PublicKey(pk, lp), 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}
	if err := os.WriteFile(*outSK, serialize.SecretKey(sk, lp), 0o600); err != nil {
		return fmt.Errorf("write secret key: %w", err)
	}
	log.Infof("keygen: wrote %s and %s (profile %s, window [%d,%d))", *outPK, *outSK, lp.Name, *activation, *activation+*activeEpochs)
	return nil
}

func runSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	profile := fs.String("profile", "L8", "lifetime profile: L8, L18, L32")
	skPath := fs.String("sk", "sk.bin", "path to the secret key")
	epoch := fs.Uint64("epoch", 0, "epoch to sign at")
	messageHex := fs.String("message", "", "hex-encoded message (must be 32 bytes)")
	outSig := fs.String("out", "sig.bin", "output path for the signature")
	fs.Parse(args)

	lp := lookupProfile(*profile)
	message := decodeMessage(*messageHex)

	raw, err := os.ReadFile(*skPath)
	if err != nil {
		return fmt.Errorf("read secret key: %w", err)
	}
	sk, err := serialize.ParseSecretKey(raw, lp)
	if err != nil {
		return fmt.Errorf("parse secret key: %w", err)
	}

	s := &xmss.Scheme{LP: lp}
	sig, err := s.Sign(sk, *epoch, message)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	if err := os.WriteFile(*outSig, serialize.Signature(sig, lp), 0o644); err != nil {
		return fmt.Errorf("write signature: %w", err)
	}
	log.Infof("sign: wrote %s (epoch %d)", *outSig, *epoch)
	return nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	profile := fs.String("profile", "L8", "lifetime profile: L8, L18, L32")
	pkPath := fs.String("pk", "pk.bin", "path to the public key")
	epoch := fs.Uint64("epoch", 0, "epoch the signature claims")
	messageHex := fs.String("message", "", "hex-encoded message (must be 32 bytes)")
	sigPath := fs.String("sig", "sig.bin", "path to the signature")
	fs.Parse(args)

	lp := lookupProfile(*profile)
	message := decodeMessage(*messageHex)

	rawPK, err := os.ReadFile(*pkPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	pk, err := serialize.ParsePublicKey(rawPK, lp)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}

	rawSig, err := os.ReadFile(*sigPath)
	if err != nil {
		return fmt.Errorf("read signature: %w", err)
	}
	sig, err := serialize.ParseSignature(rawSig, lp)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}

	s := &xmss.Scheme{LP: lp}
	ok, err := s.Verify(pk, *epoch, message, sig)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if !ok {
		log.Infof("verify: INVALID")
		os.Exit(1)
	}
	log.Infof("verify: OK")
	return nil
}
