// Command ethwallet manages a local single-account Ethereum wallet.
//
// Usage:
//
//	ethwallet generate
//	ethwallet recover --phrase "word1 word2 ..."
//	ethwallet balance
//	ethwallet send --to 0x... --amount 0.01
//	ethwallet serve
package main

func main() {
	Execute()
}
