package domain

// Built-in fallbacks used when no local reference copy of the C++ framework
// or the platform stubs can be found. They are deliberately minimal: just
// enough TEST/ASSERT machinery and hardware emulation for generated tests
// to build and run standalone.

const builtinGTestHeader = `#pragma once
// Minimal Google Test-like framework for testing
#include <iostream>
#include <vector>
#include <functional>
#include <cassert>

class TestRegistry {
private:
    struct TestInfo {
        std::string name;
        std::function<void()> func;
    };
    std::vector<TestInfo> tests_;
    static TestRegistry* instance_;

    TestRegistry() {}

public:
    static TestRegistry& instance() {
        if (!instance_) instance_ = new TestRegistry();
        return *instance_;
    }

    void register_test(const std::string& name, std::function<void()> func) {
        tests_.push_back({name, func});
    }

    int run_all_tests() {
        int failures = 0;
        for (const auto& test : tests_) {
            try {
                test.func();
                std::cout << "[ PASS ] " << test.name << std::endl;
            } catch (const std::exception& e) {
                std::cout << "[ FAIL ] " << test.name << ": " << e.what() << std::endl;
                failures++;
            } catch (...) {
                std::cout << "[ FAIL ] " << test.name << ": Unknown exception" << std::endl;
                failures++;
            }
        }
        return failures;
    }
};

TestRegistry* TestRegistry::instance_ = nullptr;

#define TEST(suite, name) \
    void Test_##suite##_##name(); \
    struct Registrar_##suite##_##name { \
        Registrar_##suite##_##name() { \
            TestRegistry::instance().register_test(#suite "." #name, Test_##suite##_##name); \
        } \
    } registrar_##suite##_##name; \
    void Test_##suite##_##name()

#define ASSERT_EQ(a, b) assert((a) == (b))
#define ASSERT_NE(a, b) assert((a) != (b))
#define ASSERT_TRUE(a) assert((a))
#define ASSERT_FALSE(a) assert(!(a))

int RUN_ALL_TESTS() {
    return TestRegistry::instance().run_all_tests();
}
`

const builtinStubsHeader = `#pragma once

#include <string>
#include <vector>
#include <iostream>
#include <chrono>
#include <thread>

void digitalWrite(int pin, int value);
int digitalRead(int pin);
void pinMode(int pin, int mode);
void delay(int ms);
unsigned long millis();
void reset_arduino_stubs();

class String {
private:
    std::string data;

public:
    String();
    String(const char* str);
    String(int val);
    String& operator+=(const char* str);
    String operator+(const char* str) const;
    String operator+(const String& other) const;
    const char* c_str() const;

    friend String operator+(const char* lhs, const String& rhs);
};

struct DigitalWriteCall {
    int pin;
    int value;
};

struct DelayCall {
    int ms;
};

class SerialClass {
public:
    void begin(int baud);
    void print(const char* str);
    void println(const char* str);
    void print(int val);
    void println(int val);
    void print(const String& str);
    void println(const String& str);

    int begin_call_count = 0;
    int last_baud_rate = 0;
    int println_call_count = 0;
    int print_call_count = 0;

    std::string outputBuffer;
};

extern SerialClass Serial;
extern std::vector<DigitalWriteCall> digitalWrite_calls;
extern std::vector<DelayCall> delay_calls;

#define HIGH 1
#define LOW 0
#define INPUT 0
#define OUTPUT 1
#define LED 13
`

const builtinStubsImpl = `#include "Arduino_stubs.h"
#include <iostream>
#include <map>
#include <chrono>

static std::map<int, int> pin_states;
static auto start_time = std::chrono::steady_clock::now();

std::vector<DigitalWriteCall> digitalWrite_calls;
std::vector<DelayCall> delay_calls;

void reset_arduino_stubs() {
    Serial.begin_call_count = 0;
    Serial.last_baud_rate = 0;
    Serial.println_call_count = 0;
    Serial.print_call_count = 0;
    digitalWrite_calls.clear();
    delay_calls.clear();
    Serial.outputBuffer.clear();
    pin_states.clear();
}

void digitalWrite(int pin, int value) {
    pin_states[pin] = value;
    digitalWrite_calls.push_back({pin, value});
}

int digitalRead(int pin) {
    return pin_states[pin];
}

void pinMode(int pin, int mode) {
    // Not tracked for testing
}

void delay(int ms) {
    delay_calls.push_back({ms});
    std::this_thread::sleep_for(std::chrono::milliseconds(ms));
}

unsigned long millis() {
    auto now = std::chrono::steady_clock::now();
    auto duration = now - start_time;
    return std::chrono::duration_cast<std::chrono::milliseconds>(duration).count();
}

SerialClass Serial;

void SerialClass::begin(int baud) {
    begin_call_count++;
    last_baud_rate = baud;
}

void SerialClass::print(const char* str) {
    print_call_count++;
    outputBuffer += str;
}

void SerialClass::println(const char* str) {
    println_call_count++;
    outputBuffer += str;
    outputBuffer += "\n";
}

void SerialClass::print(int val) {
    print_call_count++;
    outputBuffer += std::to_string(val);
}

void SerialClass::println(int val) {
    println_call_count++;
    outputBuffer += std::to_string(val);
    outputBuffer += "\n";
}

void SerialClass::print(const String& str) {
    print_call_count++;
    outputBuffer += str.c_str();
}

void SerialClass::println(const String& str) {
    println_call_count++;
    outputBuffer += str.c_str();
    outputBuffer += "\n";
}

String::String() {}

String::String(const char* str) : data(str) {}

String::String(int val) : data(std::to_string(val)) {}

String& String::operator+=(const char* str) {
    data += str;
    return *this;
}

String String::operator+(const char* str) const {
    String result = *this;
    result.data += str;
    return result;
}

String String::operator+(const String& other) const {
    String result = *this;
    result.data += other.data;
    return result;
}

String operator+(const char* lhs, const String& rhs) {
    String result(lhs);
    result.data += rhs.data;
    return result;
}

const char* String::c_str() const {
    return data.c_str();
}
`
