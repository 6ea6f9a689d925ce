package models

import (
	"fmt"
	"testing"
)

// BenchmarkDecodeV1 measures strict decoding of a schema 1 value.
func BenchmarkDecodeV1(b *testing.B) {
	data, err := EncodeRecord(RecordV1{First: Name("carol ann"), Last: SomeName(Name("lee")), Deposit: 7})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeV1(data, 16); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSplitNick measures the last-space split with growing names.
func BenchmarkSplitNick(b *testing.B) {
	for _, n := range []int{8, 64, 512} {
		nick := make([]byte, n)
		for i := range nick {
			nick[i] = 'a'
		}
		nick[n/2] = ' '
		b.Run(fmt.Sprintf("len=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				SplitNick(nick)
			}
		})
	}
}
