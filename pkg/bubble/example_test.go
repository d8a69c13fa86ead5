package bubble_test

import (
	"fmt"

	"github.com/matzehuels/bubblechart/pkg/bubble"
)

func ExampleLayout() {
	cats := []bubble.Category{
		{Name: "Technology", Weight: 53, Color: "#f89c5e"},
	}

	for _, b := range bubble.Layout(cats, bubble.TierParent, bubble.DefaultConfig()) {
		fmt.Printf("%s d=%.0f at (%.0f, %.0f)\n", b.Name, b.Diameter, b.X, b.Y)
	}
	// Output:
	// Technology d=120 at (115, 140)
}

func ExampleSize() {
	fmt.Println(bubble.Size(14, 70, 120))
	fmt.Println(bubble.Size(53, 70, 120))
	// Output:
	// 112
	// 120
}

func ExampleParseWeight() {
	w := bubble.ParseWeight("12.5%")
	fmt.Println(w, bubble.FormatWeight(w))
	fmt.Println(bubble.ParseWeight("N/A"))
	// Output:
	// 12.5 12.5%
	// 0
}
