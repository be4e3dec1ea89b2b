// Command facturapp is the admin CLI: seed users, hash passwords and run the
// overdue sweep by hand.
package main

func main() {
	Execute()
}
