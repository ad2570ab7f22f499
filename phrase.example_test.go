package phrase_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/itsatony/go-phrase"
)

func ExampleFrom() {
	tmpl := phrase.MustFrom("Hello {name}, you have {count} messages.")
	_ = tmpl.Put("name", "Alice")
	_ = tmpl.Put("count", 5)

	out, err := tmpl.Format()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)
	// Output: Hello Alice, you have 5 messages.
}

func ExampleTemplate_PutArray() {
	tmpl := phrase.MustFrom("Shopping list: {items}")
	_ = tmpl.PutArray("items", []string{"milk", "eggs", "bread"}, ", ")

	out, _ := tmpl.Format()
	fmt.Println(out)
	// Output: Shopping list: milk, eggs, bread
}

func ExampleTemplate_PutOptional() {
	tmpl := phrase.MustFrom("Hi {name}")
	_ = tmpl.PutOptional("name", "Bo")
	_ = tmpl.PutOptional("nickname", "B")

	out, _ := tmpl.Format()
	fmt.Println(out)
	// Output: Hi Bo
}

func ExampleWithBracket() {
	tmpl := phrase.MustFrom("[greeting], {name} stays literal", phrase.WithBracket(phrase.BracketSquare))
	_ = tmpl.Put("greeting", "Hi")

	out, _ := tmpl.Format()
	fmt.Println(out)
	// Output: Hi, {name} stays literal
}

func ExampleMissingKeys() {
	tmpl := phrase.MustFrom("{greeting} {name} from {city}")
	_ = tmpl.Put("greeting", "Hello")

	_, err := tmpl.Format()
	fmt.Println(errors.Is(err, phrase.ErrMissingKeys))
	fmt.Println(phrase.MissingKeys(err))
	// Output:
	// true
	// [city name]
}

func ExampleTemplate_FormatHTML() {
	markup, err := phrase.ParseMarkup("<b>{count}</b> new <i>messages</i>")
	if err != nil {
		fmt.Println(err)
		return
	}
	tmpl, err := phrase.FromSpanned(markup)
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = tmpl.Put("count", 12)

	out, _ := tmpl.FormatHTML()
	fmt.Println(out)
	// Output: <b>12</b> new <i>messages</i>
}

func ExampleFindTags() {
	results, err := phrase.FindTags("<name>Ann</name> met <name>Bo</name>",
		phrase.Tag{Name: "name", Start: "<name>", End: "</name>"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(results[0].Matches)
	// Output: [Ann Bo]
}

func ExampleCatalog() {
	ctx := context.Background()
	catalog := phrase.MustNewCatalog(phrase.NewMemoryStorage())
	defer catalog.Close()

	if _, err := catalog.Save(ctx, "order_shipped", "Order <id> shipped to <city>", phrase.BracketAngle, "", "orders"); err != nil {
		fmt.Println(err)
		return
	}

	out, err := catalog.Format(ctx, "order_shipped", map[string]any{"id": 42, "city": "Lyon"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)
	// Output: Order 42 shipped to Lyon
}
