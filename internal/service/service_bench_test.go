package service

import (
	"fmt"
	"testing"
)

func BenchmarkService_GenerateShortID(b *testing.B) {
	svc := NewService(newMockRepository(), "http://localhost:8080")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := svc.GenerateShortID()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkService_Shorten(b *testing.B) {
	svc := NewService(newMockRepository(), "http://localhost:8080")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := svc.Shorten(fmt.Sprintf("https://example.com/page-%d", i))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkService_Resolve(b *testing.B) {
	repo := newMockRepository()
	svc := NewService(repo, "http://localhost:8080")
	_, err := repo.Save("abc1234", "https://example.com")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.Resolve("abc1234")
	}
}
