// Command contactsim runs small contact manager scenarios and prints the contacts found.
package main

func main() {
	Execute()
}
