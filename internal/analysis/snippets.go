package analysis

// Plain text and snippet renditions of generated ink! entities. Snippets
// carry editor tab stops (`$1`) and placeholders (`${1:name}`).
const (
	storagePlain   = "#[ink(storage)]\npub struct Storage {}"
	storageSnippet = "#[ink(storage)]\npub struct ${1:Storage} {\n    $2\n}"

	eventPlain   = "#[ink(event)]\npub struct Event {}"
	eventSnippet = "#[ink(event)]\npub struct ${1:Event} {\n    $2\n}"

	topicPlain   = "#[ink(topic)]\nmy_topic: bool,"
	topicSnippet = "#[ink(topic)]\n${1:my_topic}: ${2:bool},"

	constructorPlain   = "#[ink(constructor)]\npub fn new() -> Self {\n    todo!()\n}"
	constructorSnippet = "#[ink(constructor)]\npub fn ${1:new}() -> Self {\n    ${2:todo!()}\n}"

	messagePlain   = "#[ink(message)]\npub fn my_message(&self) {\n    todo!()\n}"
	messageSnippet = "#[ink(message)]\npub fn ${1:my_message}(&self) {\n    ${2:todo!()}\n}"

	traitMessagePlain   = "#[ink(message)]\nfn my_message(&self);"
	traitMessageSnippet = "#[ink(message)]\nfn ${1:my_message}(&self);"

	errorCodePlain   = "type ErrorCode = ();"
	errorCodeSnippet = "type ErrorCode = ${1:()};"

	extensionPlain   = "#[ink(extension = 1)]\nfn my_extension();"
	extensionSnippet = "#[ink(extension = ${1:1})]\nfn ${2:my_extension}();"

	inkTestPlain   = "#[ink::test]\nfn it_works() {\n    todo!()\n}"
	inkTestSnippet = "#[ink::test]\nfn ${1:it_works}() {\n    ${2:todo!()}\n}"

	inkE2ETestPlain   = "#[ink_e2e::test]\nasync fn it_works(mut client: ::ink_e2e::Client<C, E>) -> E2EResult<()> {\n    todo!()\n}"
	inkE2ETestSnippet = "#[ink_e2e::test]\nasync fn ${1:it_works}(mut client: ::ink_e2e::Client<C, E>) -> E2EResult<()> {\n    ${2:todo!()}\n}"

	contractPlain = `#[ink::contract]
mod my_contract {
    #[ink(storage)]
    pub struct MyContract {}

    impl MyContract {
        #[ink(constructor)]
        pub fn new() -> Self {
            todo!()
        }

        #[ink(message)]
        pub fn my_message(&self) {
            todo!()
        }
    }
}`
	contractSnippet = `#[ink::contract]
mod ${1:my_contract} {
    #[ink(storage)]
    pub struct ${2:MyContract} {}

    impl ${2:MyContract} {
        #[ink(constructor)]
        pub fn ${3:new}() -> Self {
            ${4:todo!()}
        }

        #[ink(message)]
        pub fn ${5:my_message}(&self) {
            ${6:todo!()}
        }
    }
}`

	traitDefinitionPlain = `#[ink::trait_definition]
pub trait MyTrait {
    #[ink(message)]
    fn my_message(&self);
}`
	traitDefinitionSnippet = `#[ink::trait_definition]
pub trait ${1:MyTrait} {
    #[ink(message)]
    fn ${2:my_message}(&self);
}`

	chainExtensionPlain = `#[ink::chain_extension]
pub trait MyChainExtension {
    type ErrorCode = ();

    #[ink(extension = 1)]
    fn my_extension();
}`
	chainExtensionSnippet = `#[ink::chain_extension]
pub trait ${1:MyChainExtension} {
    type ErrorCode = ${2:()};

    #[ink(extension = ${3:1})]
    fn ${4:my_extension}();
}`

	storageItemPlain   = "#[ink::storage_item]\npub struct MyStorageItem {}"
	storageItemSnippet = "#[ink::storage_item]\npub struct ${1:MyStorageItem} {\n    $2\n}"
)
