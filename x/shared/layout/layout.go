// Package layout encodes persisted records as an 8-byte account discriminator
// followed by the borsh encoding of the record.
package layout

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// DiscriminatorLength is the size of the record type tag.
const DiscriminatorLength = 8

// ErrDiscriminatorMismatch is returned when stored bytes carry the tag of a
// different record type.
var ErrDiscriminatorMismatch = errors.New("account discriminator mismatch")

// Discriminator returns the type tag for the named record.
func Discriminator(name string) []byte {
	id := bin.SighashTypeID(bin.SIGHASH_ACCOUNT_NAMESPACE, name)
	return id[:]
}

// Marshal encodes v under the discriminator of name.
func Marshal(name string, v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(Discriminator(name))
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal checks the discriminator of name and decodes the rest into v.
func Unmarshal(name string, bz []byte, v interface{}) error {
	if len(bz) < DiscriminatorLength {
		return fmt.Errorf("decode %s: %d bytes is shorter than the discriminator", name, len(bz))
	}
	if !bytes.Equal(bz[:DiscriminatorLength], Discriminator(name)) {
		return fmt.Errorf("decode %s: %w", name, ErrDiscriminatorMismatch)
	}
	if err := bin.NewBorshDecoder(bz[DiscriminatorLength:]).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
