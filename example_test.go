package rex_test

import (
	"fmt"

	"github.com/coregx/rex"
)

func ExampleCompile() {
	re, err := rex.Compile(`\d{3}-\d{4}`)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(re.MatchString("call 555-1234"))
	// Output: true
}

func ExampleRegex_FindStringSubmatch() {
	re := rex.MustCompile(`(\w+)@(\w+)\.(\w+)`)
	m := re.FindStringSubmatch("user@example.com")
	g1, _ := m.Group(1)
	g2, _ := m.Group(2)
	fmt.Println(g1, g2)
	// Output: user example
}

func ExampleRegex_FindAllString() {
	re := rex.MustCompile(`\d+`)
	fmt.Println(re.FindAllString("1 2 3", -1))
	// Output: [1 2 3]
}
